package main

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-webform"
	"github.com/goliatone/go-webform/pkg/assets"
	"github.com/goliatone/go-webform/pkg/httpform"
	"github.com/goliatone/go-webform/pkg/model"
)

const assetsPath = "/webform/static/"

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve every form for manual testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mux, slugs, err := a.mux()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server := &http.Server{
				Addr:              a.cfg.Addr,
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				errCh <- server.ListenAndServe()
			}()
			a.logger.Info("serving forms",
				zap.String("addr", a.cfg.Addr),
				zap.Strings("slugs", slugs),
			)

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().String("addr", Defaults().Addr, "listen address")
	return cmd
}

// mux wires the pipeline, the static script, and an index page. Every form
// answers a valid submission with a thank-you message.
func (a *app) mux() (*http.ServeMux, []string, error) {
	var success []httpform.Option
	wf, slugs, err := a.load(webform.WithHandlerOptions(httpform.WithLayout(layout)))
	if err != nil {
		return nil, nil, err
	}
	for _, slug := range slugs {
		success = append(success, httpform.WithSuccess(slug, a.thanks))
	}
	handler, err := wf.Handler(success...)
	if err != nil {
		return nil, nil, err
	}

	mux := http.NewServeMux()
	if _, err := handler.RegisterRoutes(mux, ""); err != nil {
		return nil, nil, err
	}
	mux.Handle(assetsPath, http.StripPrefix(assetsPath, http.FileServerFS(assets.FS())))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(index(slugs)))
	})
	return mux, slugs, nil
}

func (a *app) thanks(_ context.Context, resp *httpform.Responder, s httpform.Success) error {
	a.logger.Info("submission accepted",
		zap.String("slug", s.Schema.Slug),
		zap.Int("fields", len(s.Values)),
	)
	return resp.Message("Thanks, your submission was received.", "webform-success")
}

func layout(schema model.FormSchema, form []byte) []byte {
	var b strings.Builder
	b.WriteString("<!doctype html>\n<html><head><meta charset=\"utf-8\"><title>")
	b.WriteString(html.EscapeString(schema.Slug))
	b.WriteString("</title>")
	b.WriteString(assets.ScriptTag(assetsPath + assets.ScriptName))
	b.WriteString("</head><body>\n")
	b.Write(form)
	b.WriteString("\n</body></html>\n")
	return []byte(b.String())
}

func index(slugs []string) string {
	var b strings.Builder
	b.WriteString("<!doctype html>\n<html><head><meta charset=\"utf-8\"><title>Forms</title></head><body><ul>\n")
	for _, slug := range slugs {
		fmt.Fprintf(&b, "<li><a href=\"/forms/%s\">%s</a></li>\n", html.EscapeString(slug), html.EscapeString(slug))
	}
	b.WriteString("</ul></body></html>\n")
	return b.String()
}
