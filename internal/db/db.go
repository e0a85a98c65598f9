// Package db
package db

import "github.com/gocql/gocql"

type DB struct {
	Sess *gocql.Session // occupancy_data
}

func New(sess *gocql.Session) *DB {
	return &DB{
		Sess: sess,
	}
}

func (db *DB) Close() {
	if db.Sess != nil {
		db.Sess.Close()
	}
}
