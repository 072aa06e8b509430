package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/school-portal/internal/metrics"
	"github.com/Spok95/school-portal/internal/observability"
	"github.com/Spok95/school-portal/internal/school"
	"github.com/Spok95/school-portal/internal/store"
)

// Routes — служебные эндпоинты и JSON только для чтения.
func Routes(st *store.Store, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Store-Version", strconv.FormatUint(st.Snapshot().Version, 10))
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("GET /api/students/{regNo}/summary", func(w http.ResponseWriter, r *http.Request) {
		sum, err := st.Snapshot().StudentSummary(strings.ToUpper(r.PathValue("regNo")))
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, sum)
	})

	mux.HandleFunc("GET /api/classes/{classID}/ranking", func(w http.ResponseWriter, r *http.Request) {
		classID := strings.ToUpper(r.PathValue("classID"))
		standings := st.Snapshot().ClassRanking(classID)
		out := make([]rankingRow, 0, len(standings))
		for i, s := range standings {
			out = append(out, rankingRow{
				Rank: i + 1, RegisterNumber: s.RegisterNumber, Name: s.Name,
				Percentage: s.Percentage, Grade: school.GradeLetter(s.Percentage),
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"classId": classID, "ranking": out})
	})

	return mux
}

type rankingRow struct {
	Rank           int    `json:"rank"`
	RegisterNumber string `json:"registerNumber"`
	Name           string `json:"name"`
	Percentage     int    `json:"percentage"`
	Grade          string `json:"grade"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	switch {
	case store.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case store.IsDomain(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		log.Error("http handler", zap.String("path", r.URL.Path), zap.Error(err))
		observability.CaptureCtx(r.Context(), err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// ServeHTTP слушает addr до отмены ctx, затем аккуратно останавливается.
func ServeHTTP(ctx context.Context, addr string, h http.Handler, log *zap.Logger) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Info("http listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		return err
	}
	return nil
}
