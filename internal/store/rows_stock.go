package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/medstock/sitesync/internal/domain"
)

func upsertStockLine(ctx context.Context, q querier, l *domain.StockLine) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO stock_line (
			id, item_id, store_id, supplier_id, batch, expiry_date,
			pack_size, available_packs, total_packs,
			cost_price_per_pack, sell_price_per_pack, on_hold
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			item_id = excluded.item_id,
			store_id = excluded.store_id,
			supplier_id = excluded.supplier_id,
			batch = excluded.batch,
			expiry_date = excluded.expiry_date,
			pack_size = excluded.pack_size,
			available_packs = excluded.available_packs,
			total_packs = excluded.total_packs,
			cost_price_per_pack = excluded.cost_price_per_pack,
			sell_price_per_pack = excluded.sell_price_per_pack,
			on_hold = excluded.on_hold
	`, l.ID, l.ItemID, l.StoreID, nullableString(l.SupplierID),
		nullableString(l.Batch), formatNullableTime(l.ExpiryDate),
		l.PackSize, l.AvailablePacks, l.TotalPacks,
		l.CostPricePerPack, l.SellPricePerPack, l.OnHold)
	if err != nil {
		return fmt.Errorf("upsert stock line %s: %w", l.ID, err)
	}
	return nil
}

func getStockLine(ctx context.Context, q querier, id string) (*domain.StockLine, error) {
	var l domain.StockLine
	var supplierID, batch, expiry sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT id, item_id, store_id, supplier_id, batch, expiry_date,
			pack_size, available_packs, total_packs,
			cost_price_per_pack, sell_price_per_pack, on_hold
		FROM stock_line WHERE id = ?
	`, id).Scan(&l.ID, &l.ItemID, &l.StoreID, &supplierID, &batch, &expiry,
		&l.PackSize, &l.AvailablePacks, &l.TotalPacks,
		&l.CostPricePerPack, &l.SellPricePerPack, &l.OnHold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get stock line %s: %w", id, err)
	}
	l.SupplierID = optionalString(supplierID)
	l.Batch = optionalString(batch)
	if l.ExpiryDate, err = parseNullableTime(expiry); err != nil {
		return nil, err
	}
	return &l, nil
}
