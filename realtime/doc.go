// Package realtime steps a growth animation at a fixed tick rate.
//
// Each tick emits one frame and advances the depth by one, from Config.From
// to Config.To, optionally looping. Commands sent from other goroutines are
// batched and applied at the start of the next tick in priority, then
// submission, order, so a given command sequence always produces the same
// frames regardless of timing.
//
// # Example Usage
//
//	a, err := realtime.NewAnimator(realtime.Config{
//		TickRate: 200 * time.Millisecond,
//		From:     0,
//		To:       8,
//	}, func(ctx context.Context, f realtime.Frame) error {
//		return renderFrame(ctx, f.Depth)
//	})
//	a.Start(ctx)
//	a.Send(realtime.Pause)
//	err = a.Wait()
//
// Tick can be called directly instead of Start to drive the animation by
// hand, which is how the tests run it.
package realtime
