package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sadopc/timecard/internal/model"
	"github.com/sadopc/timecard/internal/rollup"
)

// cleanupAge is how far back /admin/cleanup reaches: entries created more
// than a week ago are housekeeping debris.
const cleanupAge = 7 * 24 * time.Hour

func (srv *Server) handleFullState(w http.ResponseWriter, r *http.Request) {
	state, err := srv.store.FullState()
	if err != nil {
		srv.writeError(w, r, err)
		return
	}
	srv.writeJSON(w, http.StatusOK, state)
}

func (srv *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	dayNum, err := pathInt(r, "day")
	if err != nil {
		http.Error(w, "invalid day", http.StatusBadRequest)
		return
	}
	day, err := model.ParseDay(int(dayNum))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := srv.store.CreateEntry(day); err != nil {
		srv.writeError(w, r, err)
		return
	}
	bucket, err := srv.store.DayBucket(day)
	if err != nil {
		srv.writeError(w, r, err)
		return
	}
	srv.writeJSON(w, http.StatusOK, bucket)
}

func (srv *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	bucket, err := srv.store.SwitchTo(id)
	if err != nil {
		srv.writeError(w, r, err)
		return
	}
	srv.writeJSON(w, http.StatusOK, bucket)
}

func (srv *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	bucket, err := srv.store.Pause(id)
	if err != nil {
		srv.writeError(w, r, err)
		return
	}
	srv.writeJSON(w, http.StatusOK, bucket)
}

func (srv *Server) handleAddTime(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	delta, err := pathInt(r, "delta")
	if err != nil {
		http.Error(w, "invalid delta", http.StatusBadRequest)
		return
	}
	entry, err := srv.store.AddTime(id, delta)
	if err != nil {
		srv.writeError(w, r, err)
		return
	}
	srv.writeJSON(w, http.StatusOK, entry)
}

func (srv *Server) handleSetTime(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	total, err := pathInt(r, "total")
	if err != nil || total < 0 {
		http.Error(w, "invalid total", http.StatusBadRequest)
		return
	}
	entry, err := srv.store.SetTime(id, total)
	if err != nil {
		srv.writeError(w, r, err)
		return
	}
	srv.writeJSON(w, http.StatusOK, entry)
}

type notePayload struct {
	Note string `json:"note"`
}

func (srv *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	var payload notePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	entry, err := srv.store.UpdateNote(id, payload.Note)
	if err != nil {
		srv.writeError(w, r, err)
		return
	}
	srv.writeJSON(w, http.StatusOK, entry)
}

func (srv *Server) handleUpdateChargeCode(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	codeID, err := pathInt(r, "code_id")
	if err != nil {
		http.Error(w, "invalid code_id", http.StatusBadRequest)
		return
	}
	entry, err := srv.store.UpdateChargeCode(id, codeID)
	if err != nil {
		srv.writeError(w, r, err)
		return
	}
	srv.writeJSON(w, http.StatusOK, entry)
}

func (srv *Server) handleUpsert(w http.ResponseWriter, r *http.Request) {
	var entry model.TimeEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	bucket, err := srv.store.UpsertEntry(entry)
	if err != nil {
		srv.writeError(w, r, err)
		return
	}
	srv.writeJSON(w, http.StatusOK, bucket)
}

// handleReplay applies a whole undo/redo diff in one transaction and returns
// the resulting full state, keeping the server authoritative for what the
// client should now display.
func (srv *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	var diff model.Diff
	if err := json.NewDecoder(r.Body).Decode(&diff); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := srv.store.ApplyDiff(diff); err != nil {
		srv.writeError(w, r, err)
		return
	}
	state, err := srv.store.FullState()
	if err != nil {
		srv.writeError(w, r, err)
		return
	}
	srv.writeJSON(w, http.StatusOK, state)
}

func (srv *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	bucket, err := srv.store.DeleteEntry(id)
	if err != nil {
		srv.writeError(w, r, err)
		return
	}
	srv.writeJSON(w, http.StatusOK, bucket)
}

func (srv *Server) handleCostpoint(w http.ResponseWriter, r *http.Request) {
	entries, err := srv.store.AllEntries()
	if err != nil {
		srv.writeError(w, r, err)
		return
	}
	rows := rollup.Costpoint(entries, time.Now())
	if rows == nil {
		rows = []rollup.CostpointEntry{}
	}
	srv.writeJSON(w, http.StatusOK, rows)
}

func (srv *Server) handleChargeCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := srv.store.ChargeCodes()
	if err != nil {
		srv.writeError(w, r, err)
		return
	}
	if codes == nil {
		codes = []model.ChargeCode{}
	}
	srv.writeJSON(w, http.StatusOK, codes)
}

func (srv *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	n, err := srv.store.DeleteOlderThan(time.Now().Add(-cleanupAge))
	if err != nil {
		srv.writeError(w, r, err)
		return
	}
	srv.logger.Info("cleanup", "deleted", n)
	srv.writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}
