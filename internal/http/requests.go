package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"finsight/internal/core"
)

const maxBodyBytes = 1 << 20 // 1 MiB

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// monthParam reads the month query parameter, defaulting to the month
// containing now.
func (s *Server) monthParam(r *http.Request) (core.Month, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("month"))
	if raw == "" {
		return core.MonthOf(s.now()), nil
	}
	return core.ParseMonth(raw)
}

type createTransactionRequest struct {
	Date        string `json:"date"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// toTransaction validates the request strictly. Amounts arrive as
// decimal strings ("1234.56") and are stored as cents.
func (req createTransactionRequest) toTransaction() (core.Transaction, error) {
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	tx := core.Transaction{
		Date:        date,
		Type:        core.TransactionType(strings.ToLower(strings.TrimSpace(req.Type))),
		Amount:      core.Money{Cents: cents},
		Category:    strings.TrimSpace(req.Category),
		Description: strings.TrimSpace(req.Description),
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

type goalRequest struct {
	Name    string `json:"name"`
	Current string `json:"current"`
	Target  string `json:"target"`
}

func (req goalRequest) toGoal() (core.Goal, error) {
	current := int64(0)
	if strings.TrimSpace(req.Current) != "" {
		c, err := core.ParseDecimalToCents(req.Current)
		if err != nil {
			return core.Goal{}, err
		}
		current = c
	}
	target, err := core.ParseDecimalToCents(req.Target)
	if err != nil {
		return core.Goal{}, err
	}
	g := core.Goal{
		Name:    strings.TrimSpace(req.Name),
		Current: core.Money{Cents: current},
		Target:  core.Money{Cents: target},
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	return g, nil
}

type chatRequest struct {
	Question string `json:"question"`
	Month    string `json:"month"`
}

// indexParam reads an optional non-negative insight index.
func indexParam(r *http.Request) (int, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("index"))
	if raw == "" {
		return 0, false, nil
	}
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 {
		return 0, false, fmt.Errorf("invalid index %q", raw)
	}
	return idx, true, nil
}
