package renderer

import "image"

// Tile is a rectangular region of the image rendered by one task
type Tile struct {
	ID     int             // Unique tile identifier, also offsets the tile's sampler seed
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1), y = 0 is the bottom row
}

// NewTileGrid creates a grid of tiles covering the entire image. Tiles on
// the right and top edges are clipped to the image. The top row of tiles
// comes first so a live preview fills from the top of the picture.
func NewTileGrid(width, height, tileSize int) []Tile {
	if width <= 0 || height <= 0 {
		return nil
	}
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}

	// Calculate number of tiles in each dimension
	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	tiles := make([]Tile, 0, tilesX*tilesY)
	for tileY := tilesY - 1; tileY >= 0; tileY-- {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, Tile{ID: len(tiles), Bounds: image.Rect(x0, y0, x1, y1)})
		}
	}
	return tiles
}
