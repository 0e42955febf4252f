package sync_test

import (
	"errors"
	"fmt"

	cmtsync "github.com/cometbft/sharedcell/libs/sync"
)

func ExampleCell() {
	shared := cmtsync.NewCell(5)
	clone := shared.Clone()

	fmt.Println(shared.Read())
	clone.Write(10)
	fmt.Println(shared.Read())

	if err := clone.WriteResult(2); err != nil {
		fmt.Println("poisoned:", err)
	}

	v, err := shared.ReadResult()
	if err != nil {
		v = 0
	}
	fmt.Println(v)

	data := cmtsync.CellFrom("hello")
	fmt.Println(data)
	// Output:
	// 5
	// 10
	// 2
	// Cell{data: hello, poisoned: false}
}

func ExampleCell_ReadResult() {
	c := cmtsync.NewCell(fragile{n: 1})
	poison(c, errBoom)

	if _, err := c.ReadResult(); errors.Is(err, cmtsync.ErrPoisoned) {
		fmt.Println(err)
	}
	// Output:
	// cell lock poisoned: panic during write: boom
}
