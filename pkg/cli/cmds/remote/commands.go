// Package remote adds bridge specific commands to the shell.
package remote

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/remotelink/pkg/cli/sh"
	"github.com/robotalks/remotelink/pkg/comm"
	"github.com/robotalks/remotelink/pkg/comm/websocket"
	fx "github.com/robotalks/remotelink/pkg/framework"
	"github.com/robotalks/remotelink/pkg/msgs"
	"github.com/robotalks/remotelink/pkg/remote/buttons"
)

// FormatStatus renders a link status for display.
func FormatStatus(st *msgs.LinkStatus) string {
	if st == nil {
		return "unknown"
	}
	state := "waiting"
	if st.Initialized {
		state = "initialized"
	}
	out := fmt.Sprintf("%s ack=%02x buttons=%s", state, st.LastAck, buttons.Mask(st.Buttons))
	if st.LastActivity != 0 {
		out += " last-activity=" + time.Unix(0, st.LastActivity).Format(time.RFC3339Nano)
	}
	return out
}

var (
	wsLock  sync.Mutex
	wsPipes = make(map[string]*comm.Pipe)
)

// WatchWebsocket prints events received from a bridge's websocket
// endpoint until UnwatchWebsocket.
func WatchWebsocket(s *sh.Shell, url string) error {
	wsLock.Lock()
	defer wsLock.Unlock()
	if _, ok := wsPipes[url]; ok {
		return nil
	}
	rw, err := websocket.Dial(url)
	if err != nil {
		return err
	}
	pipe := comm.NewPipe(rw)
	pipe.Handler = comm.HandleTypedMsgFunc(func(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
		s.Shell.Println(s.FormatTyped(url, typed))
		return nil
	})
	wsPipes[url] = pipe
	go func() {
		pipe.Run(context.Background())
		wsLock.Lock()
		if wsPipes[url] == pipe {
			delete(wsPipes, url)
		}
		wsLock.Unlock()
	}()
	return nil
}

// UnwatchWebsocket closes all websocket watches.
func UnwatchWebsocket() []string {
	wsLock.Lock()
	defer wsLock.Unlock()
	var urls []string
	for url, pipe := range wsPipes {
		pipe.Close()
		delete(wsPipes, url)
		urls = append(urls, url)
	}
	return urls
}

var (
	// StatusCmd shows the retained link status of a bridge.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Help:    "[TYPE [ID]]",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			ref, err := s.SelectBridge(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			w, err := s.Watcher()
			if err != nil {
				c.Err(err)
				return
			}
			st, err := w.Status(context.TODO(), *ref)
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				sh.PrintJSON(c, st)
				return
			}
			c.Printf("%s: %s\n", ref.Name(), FormatStatus(st))
		},
	}

	// WsWatchCmd prints events from a websocket endpoint.
	WsWatchCmd = ishell.Cmd{
		Name: "ws.watch",
		Help: "URL",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("URL expected, e.g. ws://host:8080%s", websocket.Path))
				return
			}
			if err := WatchWebsocket(sh.ShellFrom(c), c.Args[0]); err != nil {
				c.Err(err)
			}
		},
	}

	// WsUnwatchCmd stops websocket watches.
	WsUnwatchCmd = ishell.Cmd{
		Name: "ws.unwatch",
		Help: "",
		Func: func(c *ishell.Context) {
			for _, url := range UnwatchWebsocket() {
				c.Printf("Stopped %s\n", url)
			}
		},
	}
)

func init() {
	sh.AddCmds(
		&StatusCmd,
		&WsWatchCmd,
		&WsUnwatchCmd,
	)
}
