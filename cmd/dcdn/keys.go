package main

import (
	"context"
	"log"
	"os"

	"github.com/eiannone/keyboard"
	"golang.org/x/term"
)

// watchCancelKeys calls cancel when Esc, q or Ctrl-C is pressed. The
// returned function restores the terminal and must be called before exit.
func watchCancelKeys(ctx context.Context, cancel context.CancelFunc) func() {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return func() {}
	}

	keys, err := keyboard.GetKeys(10)
	if err != nil {
		log.Printf("Keyboard unavailable, use Ctrl-C to cancel: %v", err)
		return func() {}
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer keyboard.Close()
		for {
			select {
			case <-watchCtx.Done():
				return
			case ev, ok := <-keys:
				if !ok || ev.Err != nil {
					return
				}
				if ev.Key == keyboard.KeyEsc || ev.Key == keyboard.KeyCtrlC || ev.Rune == 'q' {
					cancel()
					return
				}
			}
		}
	}()

	return func() {
		stopWatch()
		<-done
	}
}
