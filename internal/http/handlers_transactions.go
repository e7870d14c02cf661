package http

import (
	"net/http"
	"strings"
	"time"

	"spendsense/internal/core"
	"spendsense/internal/storage"
)

type transactionPayload struct {
	Type       string     `json:"tx_type"`
	Amount     core.Money `json:"amount"`
	Currency   string     `json:"currency"`
	Category   string     `json:"category"`
	Bucket     string     `json:"bucket"`
	OccurredOn string     `json:"occurred_on"`
	Note       string     `json:"note"`
}

type transactionResponse struct {
	ID         int64        `json:"id"`
	Type       core.TxType  `json:"tx_type"`
	Amount     core.Money   `json:"amount"`
	Currency   string       `json:"currency"`
	Category   *string      `json:"category"`
	Bucket     *core.Bucket `json:"bucket"`
	OccurredOn string       `json:"occurred_on"`
	Note       *string      `json:"note"`
}

func txResponse(tx core.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:         tx.ID,
		Type:       tx.Type,
		Amount:     tx.Amount,
		Currency:   tx.Currency,
		OccurredOn: core.FormatDate(tx.OccurredOn),
	}
	if tx.Category != "" {
		resp.Category = &tx.Category
	}
	if tx.Bucket != "" {
		resp.Bucket = &tx.Bucket
	}
	if tx.Note != "" {
		resp.Note = &tx.Note
	}
	return resp
}

func (p transactionPayload) toTransaction() (core.Transaction, error) {
	occurredOn, err := core.ParseDate(strings.TrimSpace(p.OccurredOn))
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Type:       core.TxType(strings.ToLower(strings.TrimSpace(p.Type))),
		Amount:     p.Amount,
		Currency:   p.Currency,
		Category:   strings.TrimSpace(p.Category),
		Bucket:     core.Bucket(strings.ToLower(strings.TrimSpace(p.Bucket))),
		OccurredOn: occurredOn,
		Note:       strings.TrimSpace(p.Note),
	}, nil
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var payload transactionPayload
	if !decodeBody(w, r, &payload) {
		return
	}
	tx, err := payload.toTransaction()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	created, err := s.deps.Transactions.Create(r.Context(), tx)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, txResponse(created))
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	filter, ok := s.parseTxFilter(w, r)
	if !ok {
		return
	}
	txs, err := s.deps.Transactions.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, txResponse(tx))
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) parseTxFilter(w http.ResponseWriter, r *http.Request) (storage.TxFilter, bool) {
	q := r.URL.Query()
	filter := storage.TxFilter{
		Type:     core.TxType(strings.ToLower(strings.TrimSpace(q.Get("tx_type")))),
		Category: strings.TrimSpace(q.Get("category")),
		Bucket:   core.Bucket(strings.ToLower(strings.TrimSpace(q.Get("bucket")))),
	}

	var err error
	var from, to *time.Time
	if from, err = parseDateParam(r, "date_from"); err != nil {
		writeError(w, r, http.StatusBadRequest, "date_from: "+err.Error())
		return filter, false
	}
	if to, err = parseDateParam(r, "date_to"); err != nil {
		writeError(w, r, http.StatusBadRequest, "date_to: "+err.Error())
		return filter, false
	}
	filter.DateFrom, filter.DateTo = from, to

	if filter.Limit, err = parseIntParam(r, "limit"); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return filter, false
	}
	if filter.Offset, err = parseIntParam(r, "offset"); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return filter, false
	}
	return filter, true
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	id, tail, ok := pathID(r.URL.Path, "/transactions/")
	if !ok || tail != "" {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		tx, err := s.deps.Transactions.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, txResponse(tx))
	case http.MethodPut:
		var payload transactionPayload
		if !decodeBody(w, r, &payload) {
			return
		}
		tx, err := payload.toTransaction()
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		tx.ID = id
		updated, err := s.deps.Transactions.Update(r.Context(), tx)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, txResponse(updated))
	case http.MethodDelete:
		if err := s.deps.Transactions.Delete(r.Context(), id); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, "GET, PUT, DELETE")
	}
}
