package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-webform/pkg/render"
)

func TestMergeAndSortHiddenFields(t *testing.T) {
	base := map[string]string{
		" existing ": "keep",
		"":           "ignored",
	}

	merged := render.MergeHiddenFields(base,
		render.HiddenField{Name: "ref", Value: "home"},
		render.HiddenField{Name: " campaign ", Value: "spring"},
		render.HiddenField{Name: "  ", Value: "skip"},
	)

	wantMerged := map[string]string{
		"existing": "keep",
		"ref":      "home",
		"campaign": "spring",
	}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}

	sorted := render.SortedHiddenFields(merged, map[string]struct{}{"ref": {}})
	wantSorted := []render.HiddenField{
		{Name: "campaign", Value: "spring"},
		{Name: "existing", Value: "keep"},
	}
	if diff := cmp.Diff(wantSorted, sorted); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}
}
