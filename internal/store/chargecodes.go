package store

import (
	"fmt"

	"github.com/sadopc/timecard/internal/model"
)

// ChargeCodes returns the full billing catalog ordered by id.
func (s *Store) ChargeCodes() ([]model.ChargeCode, error) {
	rows, err := s.db.Query(`SELECT id, alias, code, is_nc FROM charge_codes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list charge codes: %w", err)
	}
	defer rows.Close()

	var codes []model.ChargeCode
	for rows.Next() {
		var cc model.ChargeCode
		var isNC int
		if err := rows.Scan(&cc.ID, &cc.Alias, &cc.Code, &isNC); err != nil {
			return nil, err
		}
		cc.IsNC = isNC == 1
		codes = append(codes, cc)
	}
	return codes, rows.Err()
}

// CreateChargeCode adds a billing code to the catalog.
func (s *Store) CreateChargeCode(alias, code string, isNC bool) (*model.ChargeCode, error) {
	nc := 0
	if isNC {
		nc = 1
	}
	res, err := s.db.Exec(
		`INSERT INTO charge_codes (alias, code, is_nc) VALUES (?, ?, ?)`,
		alias, code, nc,
	)
	if err != nil {
		return nil, fmt.Errorf("insert charge code: %w", err)
	}
	id, _ := res.LastInsertId()
	return &model.ChargeCode{ID: id, Alias: alias, Code: code, IsNC: isNC}, nil
}
