// Package utils provides conversion helpers for the loosely typed JSON that TM emits
// (numbers that arrive as strings, blank strings that mean NULL).
package utils
