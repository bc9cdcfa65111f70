package demo

import (
	"context"
	"time"

	"github.com/ygrebnov/threads"
)

// Echo returns its input as the result. It is the worker of the countdown and
// acknowledges its creation on the console as soon as it runs.
func Echo(console *Console) threads.Work[int, int] {
	return threads.WorkValue(func(k int) int {
		console.Printf("Worker %d created successfully.", k)
		return k
	})
}

// Square returns work computing v*v. The worker prints the result, then counts
// its input down to zero pausing delay at each step, and reports completion.
func Square(console *Console, delay time.Duration) threads.Work[int, float64] {
	return func(_ context.Context, v int) (float64, error) {
		result := float64(v) * float64(v)
		console.Printf("Result from worker with input %d: %.2f", v, result)
		for k := v; k >= 0; k-- {
			if delay > 0 {
				time.Sleep(delay)
			}
		}
		console.Printf("Worker with input %d completed.", v)
		return result, nil
	}
}

// Ticker returns a bounded worker printing msg bound times, interval apart.
// Its result is the number of lines printed.
func Ticker(console *Console, bound int, interval time.Duration) threads.Work[string, int] {
	return threads.Repeat(bound, interval, func(_ context.Context, msg string, i int) {
		console.Printf("%s (%d)", msg, i)
	})
}

// Greeter returns an unbounded worker printing msg every interval until the
// manager shuts down.
func Greeter(console *Console, interval time.Duration) threads.Work[string, struct{}] {
	return threads.Forever(interval, func(_ context.Context, msg string, _ int) {
		console.Printf("%s", msg)
	})
}
