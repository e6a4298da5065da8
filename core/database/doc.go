// Package database opens the relational store and inspects its schema.
//
// Connect wraps GORM and picks a dialector from Config.Driver (mysql, postgres
// or sqlite). The pool is sized from the configuration and the connection is
// pinged before it is handed back, so callers never receive a dead handle.
//
// GetTableColumns reads the live column definitions of a table. The integrity
// feature compares them with the gorm tags of the freight models.
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	columns, err := database.GetTableColumns(db, "freight_orders")
package database
