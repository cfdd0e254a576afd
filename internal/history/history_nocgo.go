//go:build !cgo

package history

import "fmt"

func init() {
	Open = func(string) *Store {
		fmt.Println("Notice: resolution history disabled (SQLite support not available)")
		return nil
	}
}
