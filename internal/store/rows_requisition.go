package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/medstock/sitesync/internal/domain"
)

func upsertRequisition(ctx context.Context, q querier, r *domain.Requisition) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO requisition (
			id, requisition_number, store_id, name_id, type, status,
			their_reference, comment, colour,
			max_months_of_stock, min_months_of_stock,
			created_datetime, sent_datetime, finalised_datetime,
			expected_delivery_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			requisition_number = excluded.requisition_number,
			store_id = excluded.store_id,
			name_id = excluded.name_id,
			type = excluded.type,
			status = excluded.status,
			their_reference = excluded.their_reference,
			comment = excluded.comment,
			colour = excluded.colour,
			max_months_of_stock = excluded.max_months_of_stock,
			min_months_of_stock = excluded.min_months_of_stock,
			created_datetime = excluded.created_datetime,
			sent_datetime = excluded.sent_datetime,
			finalised_datetime = excluded.finalised_datetime,
			expected_delivery_date = excluded.expected_delivery_date
	`, r.ID, r.RequisitionNumber, r.StoreID, r.NameID,
		string(r.Type), string(r.Status),
		nullableString(r.TheirReference), nullableString(r.Comment),
		nullableString(r.Colour),
		r.MaxMonthsOfStock, r.MinMonthsOfStock,
		formatTime(r.CreatedDatetime),
		formatNullableTime(r.SentDatetime),
		formatNullableTime(r.FinalisedDatetime),
		formatNullableTime(r.ExpectedDeliveryDate))
	if err != nil {
		return fmt.Errorf("upsert requisition %s: %w", r.ID, err)
	}
	return nil
}

func getRequisition(ctx context.Context, q querier, id string) (*domain.Requisition, error) {
	var r domain.Requisition
	var reqType, status, created string
	var theirRef, comment, colour sql.NullString
	var sent, finalised, expected sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT id, requisition_number, store_id, name_id, type, status,
			their_reference, comment, colour,
			max_months_of_stock, min_months_of_stock,
			created_datetime, sent_datetime, finalised_datetime,
			expected_delivery_date
		FROM requisition WHERE id = ?
	`, id).Scan(&r.ID, &r.RequisitionNumber, &r.StoreID, &r.NameID,
		&reqType, &status, &theirRef, &comment, &colour,
		&r.MaxMonthsOfStock, &r.MinMonthsOfStock,
		&created, &sent, &finalised, &expected)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get requisition %s: %w", id, err)
	}

	r.Type = domain.RequisitionType(reqType)
	r.Status = domain.RequisitionStatus(status)
	r.TheirReference = optionalString(theirRef)
	r.Comment = optionalString(comment)
	r.Colour = optionalString(colour)
	if r.CreatedDatetime, err = parseTime(created); err != nil {
		return nil, err
	}
	if r.SentDatetime, err = parseNullableTime(sent); err != nil {
		return nil, err
	}
	if r.FinalisedDatetime, err = parseNullableTime(finalised); err != nil {
		return nil, err
	}
	if r.ExpectedDeliveryDate, err = parseNullableTime(expected); err != nil {
		return nil, err
	}
	return &r, nil
}

func upsertRequisitionLine(ctx context.Context, q querier, l *domain.RequisitionLine) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO requisition_line (
			id, requisition_id, item_id,
			requested_quantity, suggested_quantity, supply_quantity,
			available_stock_on_hand, average_monthly_consumption, comment
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			requisition_id = excluded.requisition_id,
			item_id = excluded.item_id,
			requested_quantity = excluded.requested_quantity,
			suggested_quantity = excluded.suggested_quantity,
			supply_quantity = excluded.supply_quantity,
			available_stock_on_hand = excluded.available_stock_on_hand,
			average_monthly_consumption = excluded.average_monthly_consumption,
			comment = excluded.comment
	`, l.ID, l.RequisitionID, l.ItemID,
		l.RequestedQuantity, l.SuggestedQuantity, l.SupplyQuantity,
		l.AvailableStockOnHand, l.AverageMonthlyConsumption,
		nullableString(l.Comment))
	if err != nil {
		return fmt.Errorf("upsert requisition line %s: %w", l.ID, err)
	}
	return nil
}

func getRequisitionLine(ctx context.Context, q querier, id string) (*domain.RequisitionLine, error) {
	var l domain.RequisitionLine
	var comment sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT id, requisition_id, item_id,
			requested_quantity, suggested_quantity, supply_quantity,
			available_stock_on_hand, average_monthly_consumption, comment
		FROM requisition_line WHERE id = ?
	`, id).Scan(&l.ID, &l.RequisitionID, &l.ItemID,
		&l.RequestedQuantity, &l.SuggestedQuantity, &l.SupplyQuantity,
		&l.AvailableStockOnHand, &l.AverageMonthlyConsumption, &comment)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get requisition line %s: %w", id, err)
	}
	l.Comment = optionalString(comment)
	return &l, nil
}
