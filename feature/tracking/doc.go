// Package tracking passes live positions from SKY to the UI.
//
// Positions are kept per freight order in a LocationStore: MemoryStore for a
// single instance, RedisStore when several instances serve the same UI. Both
// keep a bounded number of points per order and drop the oldest first.
// Nothing here is persisted to the database.
package tracking
