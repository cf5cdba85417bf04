// Package core provides fundamental types and utilities for the maze runtime.
// It contains no external dependencies to keep simulation logic pure and testable.
package core

import (
	"fmt"
	"math"
)

// Point is an integer grid coordinate.
type Point struct {
	X, Y int
}

// P is shorthand for constructing a Point.
func P(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p offset by other.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Center returns the world-space center of the cell.
func (p Point) Center() Vec {
	return Vec{X: float64(p.X) + 0.5, Y: float64(p.Y) + 0.5}
}

// Manhattan returns the taxicab distance between two points.
func (p Point) Manhattan(other Point) int {
	return Abs(p.X-other.X) + Abs(p.Y-other.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Vec is a continuous world-space position. One cell is one unit wide,
// cell (x, y) spans [x, x+1) x [y, y+1).
type Vec struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by s.
func (v Vec) Scale(s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// DistSq returns the squared distance between two positions.
func (v Vec) DistSq(o Vec) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	return dx*dx + dy*dy
}

// Cell returns the grid cell containing this position.
func (v Vec) Cell() Point {
	return Point{X: int(math.Floor(v.X)), Y: int(math.Floor(v.Y))}
}

// Direction is one of the four cardinal facings.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Directions lists the cardinal directions in a stable order.
var Directions = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

// Delta returns the unit grid step for the direction.
func (d Direction) Delta() Point {
	switch d {
	case DirUp:
		return Point{X: 0, Y: -1}
	case DirDown:
		return Point{X: 0, Y: 1}
	case DirLeft:
		return Point{X: -1, Y: 0}
	case DirRight:
		return Point{X: 1, Y: 0}
	default:
		return Point{}
	}
}

// Perpendicular returns the two directions at right angles to d.
func (d Direction) Perpendicular() (Direction, Direction) {
	switch d {
	case DirUp, DirDown:
		return DirLeft, DirRight
	case DirLeft, DirRight:
		return DirUp, DirDown
	default:
		return DirNone, DirNone
	}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
