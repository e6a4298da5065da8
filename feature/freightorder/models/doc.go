// Package models defines the gorm model of the freight_orders table.
package models
