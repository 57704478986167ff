// Package tuning holds the fixed geometry of the dungeon: tile and room
// sizes and the constants derived from them.
package tuning

import "fmt"

// Dimensions describes room geometry in world units.
type Dimensions struct {
	TileSize      float64
	RoomWidth     float64
	RoomHeight    float64
	WallThickness float64
	TopMargin     float64
	// NormalMaxEnemies caps the random enemy count in Normal rooms.
	NormalMaxEnemies int
	// PlayerDeathDelay is the pause in seconds between the player's death and
	// the end-of-run hand-off.
	PlayerDeathDelay float64
}

// Default returns the standard 64 unit tile geometry.
func Default() Dimensions {
	return Dimensions{
		TileSize:         64,
		RoomWidth:        1280,
		RoomHeight:       640,
		WallThickness:    64,
		TopMargin:        128,
		NormalMaxEnemies: 4,
		PlayerDeathDelay: 2.0,
	}
}

// RoomSpacing is the gap between neighbouring rooms in world space.
func (d Dimensions) RoomSpacing() float64 {
	return d.WallThickness * 2
}

// GridWidth is the number of placement cells across a room.
func (d Dimensions) GridWidth() int {
	return int(d.RoomWidth / d.TileSize)
}

// GridHeight is the number of placement cells up a room.
func (d Dimensions) GridHeight() int {
	return int(d.RoomHeight / d.TileSize)
}

// DoorPadding is how far a door's interaction zone extends past the door.
func (d Dimensions) DoorPadding() float64 {
	return d.TileSize * 0.3
}

// Validate checks that the geometry yields a usable placement grid.
//
// Postcondition: a nil error means GridWidth() >= 5 and GridHeight() >= 5.
func (d Dimensions) Validate() error {
	if d.TileSize <= 0 {
		return fmt.Errorf("tile size must be > 0, got %v", d.TileSize)
	}
	if d.GridWidth() < 5 || d.GridHeight() < 5 {
		return fmt.Errorf("room %vx%v is too small for tile size %v", d.RoomWidth, d.RoomHeight, d.TileSize)
	}
	if d.WallThickness < 0 || d.TopMargin < 0 {
		return fmt.Errorf("wall thickness and top margin must be >= 0")
	}
	if d.NormalMaxEnemies < 0 {
		return fmt.Errorf("normal max enemies must be >= 0, got %d", d.NormalMaxEnemies)
	}
	if d.PlayerDeathDelay < 0 {
		return fmt.Errorf("player death delay must be >= 0, got %v", d.PlayerDeathDelay)
	}
	return nil
}
