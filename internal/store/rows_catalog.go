package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/medstock/sitesync/internal/domain"
)

// Central-owned catalogue rows: name, store, unit, item.
// Upserts use ON CONFLICT(id) DO UPDATE so foreign-key children survive
// re-integration of their parents.

func upsertName(ctx context.Context, q querier, n *domain.Name) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO name (id, name, code, type, is_customer, is_supplier, created_datetime)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			code = excluded.code,
			type = excluded.type,
			is_customer = excluded.is_customer,
			is_supplier = excluded.is_supplier,
			created_datetime = excluded.created_datetime
	`, n.ID, n.Name, n.Code, string(n.Type), n.IsCustomer, n.IsSupplier,
		formatNullableTime(n.CreatedDatetime))
	if err != nil {
		return fmt.Errorf("upsert name %s: %w", n.ID, err)
	}
	return nil
}

func getName(ctx context.Context, q querier, id string) (*domain.Name, error) {
	var n domain.Name
	var nameType string
	var created sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT id, name, code, type, is_customer, is_supplier, created_datetime
		FROM name WHERE id = ?
	`, id).Scan(&n.ID, &n.Name, &n.Code, &nameType, &n.IsCustomer, &n.IsSupplier, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get name %s: %w", id, err)
	}
	n.Type = domain.NameType(nameType)
	if n.CreatedDatetime, err = parseNullableTime(created); err != nil {
		return nil, err
	}
	return &n, nil
}

func upsertStore(ctx context.Context, q querier, st *domain.Store) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO store (id, name_id, code, site_id, mode)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name_id = excluded.name_id,
			code = excluded.code,
			site_id = excluded.site_id,
			mode = excluded.mode
	`, st.ID, st.NameID, st.Code, st.SiteID, string(st.Mode))
	if err != nil {
		return fmt.Errorf("upsert store %s: %w", st.ID, err)
	}
	return nil
}

func getStore(ctx context.Context, q querier, id string) (*domain.Store, error) {
	var st domain.Store
	var mode string
	err := q.QueryRowContext(ctx, `
		SELECT id, name_id, code, site_id, mode FROM store WHERE id = ?
	`, id).Scan(&st.ID, &st.NameID, &st.Code, &st.SiteID, &mode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get store %s: %w", id, err)
	}
	st.Mode = domain.StoreMode(mode)
	return &st, nil
}

func upsertUnit(ctx context.Context, q querier, u *domain.Unit) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO unit (id, name, description, idx)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			idx = excluded.idx
	`, u.ID, u.Name, u.Description, u.Index)
	if err != nil {
		return fmt.Errorf("upsert unit %s: %w", u.ID, err)
	}
	return nil
}

func getUnit(ctx context.Context, q querier, id string) (*domain.Unit, error) {
	var u domain.Unit
	err := q.QueryRowContext(ctx, `
		SELECT id, name, description, idx FROM unit WHERE id = ?
	`, id).Scan(&u.ID, &u.Name, &u.Description, &u.Index)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get unit %s: %w", id, err)
	}
	return &u, nil
}

func upsertItem(ctx context.Context, q querier, i *domain.Item) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO item (id, name, code, unit_id, type, default_pack_size)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			code = excluded.code,
			unit_id = excluded.unit_id,
			type = excluded.type,
			default_pack_size = excluded.default_pack_size
	`, i.ID, i.Name, i.Code, nullableString(i.UnitID), string(i.Type), i.DefaultPackSize)
	if err != nil {
		return fmt.Errorf("upsert item %s: %w", i.ID, err)
	}
	return nil
}

func getItem(ctx context.Context, q querier, id string) (*domain.Item, error) {
	var i domain.Item
	var itemType string
	var unitID sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT id, name, code, unit_id, type, default_pack_size FROM item WHERE id = ?
	`, id).Scan(&i.ID, &i.Name, &i.Code, &unitID, &itemType, &i.DefaultPackSize)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item %s: %w", id, err)
	}
	i.UnitID = optionalString(unitID)
	i.Type = domain.ItemType(itemType)
	return &i, nil
}
