package pkgrouter

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime/debug"
	"strings"

	"github.com/shandysiswandi/faultline/internal/pkg/pkgboundary"
	"github.com/shandysiswandi/faultline/internal/pkg/pkgerror"
)

// errorWriter renders an error response, see Router.WriteError.
type errorWriter func(w http.ResponseWriter, r *http.Request, err error)

//nolint:contextcheck // ignore error
func middlewareRecoverer(writeErr errorWriter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					//nolint:err113,errorlint // this must compare directly
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}

					slog.ErrorContext(r.Context(), "panic on the server", "because", rvr)

					lines := strings.Split(string(debug.Stack()), "\n")
					printStackTrace(lines)

					if r.Header.Get("Connection") == "Upgrade" {
						return
					}

					writeErr(w, r, pkgerror.NewInternal(pkgboundary.PanicError(rvr)))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func printStackTrace(lines []string) {
	fmt.Fprintln(os.Stderr, "===== ===== START ===== =====")
	for i := 0; i < len(lines)-1; i++ {
		line := strings.TrimSpace(lines[i+1])
		if !strings.Contains(line, "/internal/") || !strings.Contains(line, ".go") {
			continue
		}

		idx := strings.Index(line, ".go:")
		if idx == -1 {
			continue
		}

		end := strings.Index(line[idx:], " ")
		if end == -1 {
			end = len(line)
		} else {
			end += idx
		}

		shortPath := line[:end]
		if internalIdx := strings.Index(shortPath, "/internal/"); internalIdx != -1 {
			fmt.Fprintln(os.Stderr, "stack trace: ", shortPath[internalIdx+1:])
		}
	}
	fmt.Fprintln(os.Stderr, "===== ===== END ===== =====")
}
