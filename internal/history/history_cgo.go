//go:build cgo

package history

import (
	_ "github.com/mattn/go-sqlite3"
)

func init() {
	Open = openImpl
}
