package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/medstock/sitesync/internal/domain"
)

func upsertInvoice(ctx context.Context, q querier, inv *domain.Invoice) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO invoice (
			id, store_id, name_id, invoice_number, type, status, mode,
			user_id, their_reference, comment, on_hold, colour,
			created_datetime, allocated_datetime, picked_datetime,
			shipped_datetime, delivered_datetime, verified_datetime
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			store_id = excluded.store_id,
			name_id = excluded.name_id,
			invoice_number = excluded.invoice_number,
			type = excluded.type,
			status = excluded.status,
			mode = excluded.mode,
			user_id = excluded.user_id,
			their_reference = excluded.their_reference,
			comment = excluded.comment,
			on_hold = excluded.on_hold,
			colour = excluded.colour,
			created_datetime = excluded.created_datetime,
			allocated_datetime = excluded.allocated_datetime,
			picked_datetime = excluded.picked_datetime,
			shipped_datetime = excluded.shipped_datetime,
			delivered_datetime = excluded.delivered_datetime,
			verified_datetime = excluded.verified_datetime
	`, inv.ID, inv.StoreID, inv.NameID, inv.InvoiceNumber,
		string(inv.Type), string(inv.Status), string(inv.Mode),
		nullableString(inv.UserID), nullableString(inv.TheirReference),
		nullableString(inv.Comment), inv.OnHold, nullableString(inv.Colour),
		formatTime(inv.CreatedDatetime),
		formatNullableTime(inv.AllocatedDatetime),
		formatNullableTime(inv.PickedDatetime),
		formatNullableTime(inv.ShippedDatetime),
		formatNullableTime(inv.DeliveredDatetime),
		formatNullableTime(inv.VerifiedDatetime))
	if err != nil {
		return fmt.Errorf("upsert invoice %s: %w", inv.ID, err)
	}
	return nil
}

func getInvoice(ctx context.Context, q querier, id string) (*domain.Invoice, error) {
	var inv domain.Invoice
	var invType, status, mode, created string
	var userID, theirRef, comment, colour sql.NullString
	var allocated, picked, shipped, delivered, verified sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT id, store_id, name_id, invoice_number, type, status, mode,
			user_id, their_reference, comment, on_hold, colour,
			created_datetime, allocated_datetime, picked_datetime,
			shipped_datetime, delivered_datetime, verified_datetime
		FROM invoice WHERE id = ?
	`, id).Scan(&inv.ID, &inv.StoreID, &inv.NameID, &inv.InvoiceNumber,
		&invType, &status, &mode,
		&userID, &theirRef, &comment, &inv.OnHold, &colour,
		&created, &allocated, &picked, &shipped, &delivered, &verified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get invoice %s: %w", id, err)
	}

	inv.Type = domain.InvoiceType(invType)
	inv.Status = domain.InvoiceStatus(status)
	inv.Mode = domain.InvoiceMode(mode)
	inv.UserID = optionalString(userID)
	inv.TheirReference = optionalString(theirRef)
	inv.Comment = optionalString(comment)
	inv.Colour = optionalString(colour)
	if inv.CreatedDatetime, err = parseTime(created); err != nil {
		return nil, err
	}
	if inv.AllocatedDatetime, err = parseNullableTime(allocated); err != nil {
		return nil, err
	}
	if inv.PickedDatetime, err = parseNullableTime(picked); err != nil {
		return nil, err
	}
	if inv.ShippedDatetime, err = parseNullableTime(shipped); err != nil {
		return nil, err
	}
	if inv.DeliveredDatetime, err = parseNullableTime(delivered); err != nil {
		return nil, err
	}
	if inv.VerifiedDatetime, err = parseNullableTime(verified); err != nil {
		return nil, err
	}
	return &inv, nil
}

func upsertInvoiceLine(ctx context.Context, q querier, l *domain.InvoiceLine) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO invoice_line (
			id, invoice_id, item_id, item_name, item_code, stock_line_id,
			type, batch, expiry_date, pack_size, number_of_packs,
			cost_price_per_pack, sell_price_per_pack, note
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			invoice_id = excluded.invoice_id,
			item_id = excluded.item_id,
			item_name = excluded.item_name,
			item_code = excluded.item_code,
			stock_line_id = excluded.stock_line_id,
			type = excluded.type,
			batch = excluded.batch,
			expiry_date = excluded.expiry_date,
			pack_size = excluded.pack_size,
			number_of_packs = excluded.number_of_packs,
			cost_price_per_pack = excluded.cost_price_per_pack,
			sell_price_per_pack = excluded.sell_price_per_pack,
			note = excluded.note
	`, l.ID, l.InvoiceID, l.ItemID, l.ItemName, l.ItemCode,
		nullableString(l.StockLineID), string(l.Type),
		nullableString(l.Batch), formatNullableTime(l.ExpiryDate),
		l.PackSize, l.NumberOfPacks,
		l.CostPricePerPack, l.SellPricePerPack, nullableString(l.Note))
	if err != nil {
		return fmt.Errorf("upsert invoice line %s: %w", l.ID, err)
	}
	return nil
}

func getInvoiceLine(ctx context.Context, q querier, id string) (*domain.InvoiceLine, error) {
	var l domain.InvoiceLine
	var lineType string
	var stockLineID, batch, expiry, note sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT id, invoice_id, item_id, item_name, item_code, stock_line_id,
			type, batch, expiry_date, pack_size, number_of_packs,
			cost_price_per_pack, sell_price_per_pack, note
		FROM invoice_line WHERE id = ?
	`, id).Scan(&l.ID, &l.InvoiceID, &l.ItemID, &l.ItemName, &l.ItemCode,
		&stockLineID, &lineType, &batch, &expiry, &l.PackSize, &l.NumberOfPacks,
		&l.CostPricePerPack, &l.SellPricePerPack, &note)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get invoice line %s: %w", id, err)
	}

	l.Type = domain.InvoiceLineType(lineType)
	l.StockLineID = optionalString(stockLineID)
	l.Batch = optionalString(batch)
	l.Note = optionalString(note)
	if l.ExpiryDate, err = parseNullableTime(expiry); err != nil {
		return nil, err
	}
	return &l, nil
}
