package ui

import (
	"image/color"
	"strings"
)

// Tetromino describes how a recognised piece identifier is shown.
type Tetromino struct {
	ID    string
	Name  string
	Color color.NRGBA
}

var tetrominoes = map[string]Tetromino{
	"I": {ID: "I", Name: "I piece", Color: color.NRGBA{R: 0x00, G: 0xf0, B: 0xf0, A: 0xff}},
	"J": {ID: "J", Name: "J piece", Color: color.NRGBA{R: 0x00, G: 0x00, B: 0xf0, A: 0xff}},
	"L": {ID: "L", Name: "L piece", Color: color.NRGBA{R: 0xf0, G: 0xa0, B: 0x00, A: 0xff}},
	"O": {ID: "O", Name: "O piece", Color: color.NRGBA{R: 0xf0, G: 0xf0, B: 0x00, A: 0xff}},
	"S": {ID: "S", Name: "S piece", Color: color.NRGBA{R: 0x00, G: 0xf0, B: 0x00, A: 0xff}},
	"T": {ID: "T", Name: "T piece", Color: color.NRGBA{R: 0xa0, G: 0x00, B: 0xf0, A: 0xff}},
	"Z": {ID: "Z", Name: "Z piece", Color: color.NRGBA{R: 0xf0, G: 0x00, B: 0x00, A: 0xff}},
}

// unknownPiece is used for anything that is not a tetromino letter, including
// the display messages for missing or undetermined pieces.
var unknownPiece = color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}

// LookupTetromino returns the tetromino for a piece identifier.
func LookupTetromino(id string) (Tetromino, bool) {
	t, ok := tetrominoes[strings.ToUpper(strings.TrimSpace(id))]
	return t, ok
}

// PieceName returns a readable name for id. Text that is not a piece
// identifier is returned unchanged.
func PieceName(id string) string {
	if t, ok := LookupTetromino(id); ok {
		return t.Name
	}
	return id
}

// PieceColor returns the swatch colour for id.
func PieceColor(id string) color.Color {
	if t, ok := LookupTetromino(id); ok {
		return t.Color
	}
	return unknownPiece
}
