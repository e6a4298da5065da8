// Package cache connects to redis for state shared between relay instances.
package cache
