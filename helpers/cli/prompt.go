// Package cli runs interactive line loop for bench tools and keyboard input.
package cli

import (
	"bufio"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/c-bata/go-prompt"
	"github.com/mattn/go-isatty"
)

// MainLoop reads lines from stdin and passes them to exec.
// On terminal it runs go-prompt with completion, otherwise reads plain lines until EOF.
// onSignal=nil exits process on SIGINT/SIGTERM/SIGHUP/SIGQUIT.
func MainLoop(tag string, exec func(line string), complete func(d prompt.Document) []prompt.Suggest, onSignal func(os.Signal)) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)
	go func() {
		for s := range signalCh {
			if onSignal == nil {
				os.Exit(1)
			}
			onSignal(s)
		}
	}()

	if complete == nil {
		complete = func(prompt.Document) []prompt.Suggest { return nil }
	}
	if isatty.IsTerminal(os.Stdin.Fd()) {
		prompt.New(exec, complete,
			prompt.OptionPrefix(tag+"> "),
			prompt.OptionTitle(tag),
		).Run()
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		exec(line)
	}
	if err := scanner.Err(); err != nil {
		log.Printf("%s stdin err=%v", tag, err)
	}
}
