package renderer

import (
	"testing"
)

func TestNewTileGrid_Partition(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		tileSize      int
		expectedTiles int
	}{
		{"evenly divisible", 128, 128, 64, 4},
		{"ragged edges", 100, 70, 32, 12},
		{"smaller than a tile", 10, 5, 64, 1},
		{"single pixel tiles", 3, 2, 1, 6},
		{"tall image", 1, 257, 16, 17},
		{"default tile size", 130, 64, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles := NewTileGrid(tt.width, tt.height, tt.tileSize)
			if len(tiles) != tt.expectedTiles {
				t.Fatalf("Expected %d tiles, got %d", tt.expectedTiles, len(tiles))
			}

			// Every pixel is covered by exactly one tile
			coverage := make([]int, tt.width*tt.height)
			for i, tile := range tiles {
				if tile.ID != i {
					t.Errorf("Expected tile %d to have ID %d, got %d", i, i, tile.ID)
				}
				if tile.Bounds.Empty() {
					t.Errorf("Tile %d is empty: %v", tile.ID, tile.Bounds)
				}
				for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
					for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
						if x < 0 || y < 0 || x >= tt.width || y >= tt.height {
							t.Fatalf("Tile %d exceeds the image: %v", tile.ID, tile.Bounds)
						}
						coverage[x+y*tt.width]++
					}
				}
			}
			for i, count := range coverage {
				if count != 1 {
					t.Fatalf("Pixel (%d,%d) covered %d times", i%tt.width, i/tt.width, count)
				}
			}
		})
	}
}

func TestNewTileGrid_TopRowFirst(t *testing.T) {
	tiles := NewTileGrid(100, 100, 40)
	if tiles[0].Bounds.Max.Y != 100 || tiles[0].Bounds.Min.X != 0 {
		t.Errorf("Expected first tile at the top left, got %v", tiles[0].Bounds)
	}
	last := tiles[len(tiles)-1]
	if last.Bounds.Min.Y != 0 || last.Bounds.Max.X != 100 {
		t.Errorf("Expected last tile at the bottom right, got %v", last.Bounds)
	}
}

func TestNewTileGrid_EmptyImage(t *testing.T) {
	if tiles := NewTileGrid(0, 10, 8); tiles != nil {
		t.Errorf("Expected no tiles for an empty image, got %d", len(tiles))
	}
}
