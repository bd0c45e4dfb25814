package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/medstock/sitesync/internal/domain"
)

func upsertPurchaseOrder(ctx context.Context, q querier, p *domain.PurchaseOrder) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO purchase_order (
			id, purchase_order_number, store_id, supplier_id, status,
			reference, comment, created_datetime,
			authorised_datetime, confirmed_datetime, finalised_datetime,
			expected_delivery_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			purchase_order_number = excluded.purchase_order_number,
			store_id = excluded.store_id,
			supplier_id = excluded.supplier_id,
			status = excluded.status,
			reference = excluded.reference,
			comment = excluded.comment,
			created_datetime = excluded.created_datetime,
			authorised_datetime = excluded.authorised_datetime,
			confirmed_datetime = excluded.confirmed_datetime,
			finalised_datetime = excluded.finalised_datetime,
			expected_delivery_date = excluded.expected_delivery_date
	`, p.ID, p.PurchaseOrderNumber, p.StoreID, p.SupplierID, string(p.Status),
		nullableString(p.Reference), nullableString(p.Comment),
		formatTime(p.CreatedDatetime),
		formatNullableTime(p.AuthorisedDatetime),
		formatNullableTime(p.ConfirmedDatetime),
		formatNullableTime(p.FinalisedDatetime),
		formatNullableTime(p.ExpectedDeliveryDate))
	if err != nil {
		return fmt.Errorf("upsert purchase order %s: %w", p.ID, err)
	}
	return nil
}

func getPurchaseOrder(ctx context.Context, q querier, id string) (*domain.PurchaseOrder, error) {
	var p domain.PurchaseOrder
	var status, created string
	var reference, comment sql.NullString
	var authorised, confirmed, finalised, expected sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT id, purchase_order_number, store_id, supplier_id, status,
			reference, comment, created_datetime,
			authorised_datetime, confirmed_datetime, finalised_datetime,
			expected_delivery_date
		FROM purchase_order WHERE id = ?
	`, id).Scan(&p.ID, &p.PurchaseOrderNumber, &p.StoreID, &p.SupplierID, &status,
		&reference, &comment, &created,
		&authorised, &confirmed, &finalised, &expected)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get purchase order %s: %w", id, err)
	}

	p.Status = domain.PurchaseOrderStatus(status)
	p.Reference = optionalString(reference)
	p.Comment = optionalString(comment)
	if p.CreatedDatetime, err = parseTime(created); err != nil {
		return nil, err
	}
	if p.AuthorisedDatetime, err = parseNullableTime(authorised); err != nil {
		return nil, err
	}
	if p.ConfirmedDatetime, err = parseNullableTime(confirmed); err != nil {
		return nil, err
	}
	if p.FinalisedDatetime, err = parseNullableTime(finalised); err != nil {
		return nil, err
	}
	if p.ExpectedDeliveryDate, err = parseNullableTime(expected); err != nil {
		return nil, err
	}
	return &p, nil
}

func upsertPurchaseOrderLine(ctx context.Context, q querier, l *domain.PurchaseOrderLine) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO purchase_order_line (
			id, purchase_order_id, item_id, line_number,
			requested_pack_size, requested_number_of_units,
			received_number_of_units, price_per_pack,
			requested_delivery_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			purchase_order_id = excluded.purchase_order_id,
			item_id = excluded.item_id,
			line_number = excluded.line_number,
			requested_pack_size = excluded.requested_pack_size,
			requested_number_of_units = excluded.requested_number_of_units,
			received_number_of_units = excluded.received_number_of_units,
			price_per_pack = excluded.price_per_pack,
			requested_delivery_date = excluded.requested_delivery_date
	`, l.ID, l.PurchaseOrderID, l.ItemID, l.LineNumber,
		l.RequestedPackSize, l.RequestedNumberOfUnits,
		l.ReceivedNumberOfUnits, l.PricePerPack,
		formatNullableTime(l.RequestedDeliveryDate))
	if err != nil {
		return fmt.Errorf("upsert purchase order line %s: %w", l.ID, err)
	}
	return nil
}

func getPurchaseOrderLine(ctx context.Context, q querier, id string) (*domain.PurchaseOrderLine, error) {
	var l domain.PurchaseOrderLine
	var requested sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT id, purchase_order_id, item_id, line_number,
			requested_pack_size, requested_number_of_units,
			received_number_of_units, price_per_pack,
			requested_delivery_date
		FROM purchase_order_line WHERE id = ?
	`, id).Scan(&l.ID, &l.PurchaseOrderID, &l.ItemID, &l.LineNumber,
		&l.RequestedPackSize, &l.RequestedNumberOfUnits,
		&l.ReceivedNumberOfUnits, &l.PricePerPack, &requested)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get purchase order line %s: %w", id, err)
	}
	if l.RequestedDeliveryDate, err = parseNullableTime(requested); err != nil {
		return nil, err
	}
	return &l, nil
}
