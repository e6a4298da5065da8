// Package models defines the GORM model of stored tracking events.
package models
