package order_test

import (
	"fmt"

	"github.com/jonwraymond/cogs/order"
)

func ExampleInsert() {
	// A leaderboard held in descending order.
	scores := []int{90, 75, 60}

	after := func(a, b int) bool { return a < b }
	scores = order.Insert(scores, 80, after)

	fmt.Println(scores)
	// Output:
	// [90 80 75 60]
}

func ExampleInsertBy() {
	type job struct {
		name     string
		priority int
	}

	queue := []job{{"compact", 9}, {"flush", 5}}
	queue = order.InsertBy(queue, job{"snapshot", 7},
		func(a, b int) bool { return a < b },
		func(j job) int { return j.priority },
	)

	for _, j := range queue {
		fmt.Println(j.name, j.priority)
	}
	// Output:
	// compact 9
	// snapshot 7
	// flush 5
}
