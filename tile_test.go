package gorast_test

import (
	"testing"

	"github.com/geomys/gorast"
	"github.com/stretchr/testify/assert"
)

func TestTileResolution(t *testing.T) {
	assert.Equal(t, 180.0/512, gorast.TileCoordinate{Zoom: 1, TileSize: 512}.Resolution())
	assert.Equal(t, 180.0/512/2, gorast.TileCoordinate{Zoom: 2, TileSize: 512}.Resolution())
	assert.Equal(t, 180.0/256/1024, gorast.TileCoordinate{Zoom: 11, TileSize: 256}.Resolution())
}

func TestTileBounds(t *testing.T) {
	// zoom 1 covers the world with 2x1 tiles
	b := gorast.TileCoordinate{Col: 0, Row: 0, Zoom: 1, TileSize: 512}.Bounds()
	assert.Equal(t, gorast.Bounds{-180, -90, 0, 90}, b)
	b = gorast.TileCoordinate{Col: 1, Row: 0, Zoom: 1, TileSize: 512}.Bounds()
	assert.Equal(t, gorast.Bounds{0, -90, 180, 90}, b)

	// row 0 is the southernmost row
	b = gorast.TileCoordinate{Col: 0, Row: 0, Zoom: 2, TileSize: 512}.Bounds()
	assert.Equal(t, gorast.Bounds{-180, -90, -90, 0}, b)
	b = gorast.TileCoordinate{Col: 3, Row: 1, Zoom: 2, TileSize: 512}.Bounds()
	assert.Equal(t, gorast.Bounds{90, 0, 180, 90}, b)

	// adjacent tiles share edges exactly
	left := gorast.TileCoordinate{Col: 100, Row: 40, Zoom: 9, TileSize: 512}.Bounds()
	right := gorast.TileCoordinate{Col: 101, Row: 40, Zoom: 9, TileSize: 512}.Bounds()
	assert.Equal(t, left.MaxX(), right.MinX())
	assert.Equal(t, left.MinY(), right.MinY())
	assert.Equal(t, left.MaxY(), right.MaxY())
}
