package repository

import (
	"context"

	"github.com/aerolift/dispatch/internal/database"
	"github.com/aerolift/dispatch/internal/model"
)

type LocationRepo struct{ DB *database.DB }

func NewLocationRepo(db *database.DB) *LocationRepo { return &LocationRepo{DB: db} }

// List returns all locations ordered by name.
func (r *LocationRepo) List(ctx context.Context) ([]model.Location, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, address, type FROM locations ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := []model.Location{}
	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Address, &l.Type); err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// Create inserts a location and returns it with the generated id.
func (r *LocationRepo) Create(ctx context.Context, name, address, locType string) (model.Location, error) {
	id, err := r.DB.InsertID(ctx,
		"INSERT INTO locations (name, address, type) VALUES (?,?,?)",
		name, address, locType)
	if err != nil {
		return model.Location{}, err
	}
	return model.Location{ID: id, Name: name, Address: address, Type: locType}, nil
}
