// Package sh provides the interactive shell of remotecli.
package sh

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/remotelink/pkg/comm/mqtt"
	"github.com/robotalks/remotelink/pkg/msgs"
	"github.com/robotalks/remotelink/pkg/registry"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	BrokerURL   string

	Shell *ishell.Shell

	lock    sync.Mutex
	watcher *mqtt.Watcher
	watches map[string]*mqtt.Subscription
}

const shellKey = "$shell"

var (
	// flags

	evalOnly   bool
	outputJSON bool
	brokerURL  = mqtt.DefaultBrokerURL

	// commands
	commands = []*ishell.Cmd{
		&DiscoverCmd,
		&WatchCmd,
		&UnwatchCmd,
	}
)

func init() {
	if val := os.Getenv("REMOTE_MQTT_URL"); val != "" {
		brokerURL = val
	}
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.StringVar(&brokerURL, "mqtt", brokerURL, "MQTT broker URL.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(url string) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		BrokerURL:   url,

		Shell:   ishell.New(),
		watches: make(map[string]*mqtt.Subscription),
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt("remote > ")
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// FormatInfo prints Info into friendly string for display.
func FormatInfo(info registry.Info) string {
	var w bytes.Buffer
	fmt.Fprintf(&w, "%s", info.Ref.Name())
	if info.Meta.Description != "" {
		fmt.Fprintf(&w, ": %s", info.Meta.Description)
	}
	if b := info.Meta.Bridge; b != nil && b.Device != "" {
		fmt.Fprintf(&w, " (%s)", b.Device)
	}
	return w.String()
}

// Watcher connects to the broker on first use.
func (s *Shell) Watcher() (*mqtt.Watcher, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.watcher == nil {
		w, err := mqtt.NewWatcher(s.BrokerURL)
		if err != nil {
			return nil, err
		}
		s.watcher = w
	}
	return s.watcher, nil
}

// Discover discovers bridges.
func (s *Shell) Discover(filter func(registry.Info) bool) ([]registry.Info, error) {
	w, err := s.Watcher()
	if err != nil {
		return nil, err
	}
	infoList, err := w.Discover(context.TODO())
	if err != nil {
		return nil, err
	}
	if filter != nil {
		items := make([]registry.Info, 0, len(infoList))
		for _, info := range infoList {
			if filter(info) {
				items = append(items, info)
			}
		}
		infoList = items
	}
	return infoList, nil
}

// SelectBridge resolves a bridge from args: TYPE ID, TYPE, or nothing.
func (s *Shell) SelectBridge(args []string) (*registry.Ref, error) {
	if len(args) >= 2 {
		return &registry.Ref{Type: args[0], ID: args[1]}, nil
	}
	var filter func(registry.Info) bool
	if len(args) == 1 {
		filter = func(info registry.Info) bool {
			return info.Ref.Type == args[0]
		}
	}
	infoList, err := s.Discover(filter)
	if err != nil {
		return nil, err
	}
	if len(infoList) == 0 {
		return nil, fmt.Errorf("no bridge discovered")
	}
	var index int
	if len(infoList) > 1 {
		if !s.Interactive {
			return nil, fmt.Errorf("more than 1 bridges discovered in non-interactive mode")
		}
		items := make([]string, len(infoList))
		for n, info := range infoList {
			items[n] = FormatInfo(info)
		}
		index = s.Shell.MultiChoice(items, "Which one?")
	}
	return &infoList[index].Ref, nil
}

// Watch prints events of the bridge until Unwatch.
func (s *Shell) Watch(ref registry.Ref) error {
	w, err := s.Watcher()
	if err != nil {
		return err
	}
	name := ref.Name()
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.watches[name]; ok {
		return nil
	}
	s.watches[name] = w.Watch(ref, func(typed *msgs.Typed) {
		s.Shell.Println(s.FormatTyped(name, typed))
	})
	return nil
}

// Unwatch stops watching the bridge, or all bridges if ref is nil.
func (s *Shell) Unwatch(ref *registry.Ref) []string {
	s.lock.Lock()
	defer s.lock.Unlock()
	var names []string
	for name, sub := range s.watches {
		if ref != nil && ref.Name() != name {
			continue
		}
		if err := sub.Close(); err != nil {
			glog.Warningf("unwatch %s: %v", name, err)
		}
		delete(s.watches, name)
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FormatTyped renders a received message.
func (s *Shell) FormatTyped(source string, typed *msgs.Typed) string {
	if s.OutputJSON {
		msg, err := typed.Decode()
		if err != nil {
			return fmt.Sprintf(`{"source":%q,"error":%q}`, source, err.Error())
		}
		out, err := json.Marshal(map[string]interface{}{"source": source, "sequence": typed.Sequence, "message": msg})
		if err != nil {
			return fmt.Sprintf(`{"source":%q,"error":%q}`, source, err.Error())
		}
		return string(out)
	}
	return source + ": " + msgs.Format(typed)
}

// PrintJSON prints v in JSON.
func PrintJSON(c *ishell.Context, v interface{}) {
	out, err := json.Marshal(v)
	if err != nil {
		c.Err(err)
		return
	}
	c.Println(string(out))
}

// Close releases the broker connection.
func (s *Shell) Close() {
	s.Unwatch(nil)
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	defer s.Close()
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			glog.Exitln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	glog.Exitln("command expected")
}

var (
	// DiscoverCmd discovers bridges.
	DiscoverCmd = ishell.Cmd{
		Name:    "discover",
		Aliases: []string{"list", "l"},
		Help:    "[TYPE]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			var filter func(registry.Info) bool
			if len(c.Args) > 0 {
				filter = func(info registry.Info) bool { return info.Ref.Type == c.Args[0] }
			}
			infoList, err := s.Discover(filter)
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				if len(infoList) == 0 {
					// in case infoList is nil, make it empty slice.
					infoList = []registry.Info{}
				}
				PrintJSON(c, infoList)
				return
			}
			if len(infoList) == 0 {
				c.Println("No bridges found")
				return
			}
			for _, info := range infoList {
				c.Println(FormatInfo(info))
			}
		},
	}

	// WatchCmd prints events of a bridge.
	WatchCmd = ishell.Cmd{
		Name:    "watch",
		Aliases: []string{"w"},
		Help:    "[TYPE [ID]]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			ref, err := s.SelectBridge(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			if err = s.Watch(*ref); err != nil {
				c.Err(err)
				return
			}
			c.Printf("Watching %s\n", ref.Name())
		},
	}

	// UnwatchCmd stops watching.
	UnwatchCmd = ishell.Cmd{
		Name:    "unwatch",
		Aliases: []string{"uw"},
		Help:    "[TYPE ID]",
		Func: func(c *ishell.Context) {
			var ref *registry.Ref
			if len(c.Args) >= 2 {
				ref = &registry.Ref{Type: c.Args[0], ID: c.Args[1]}
			}
			for _, name := range ShellFrom(c).Unwatch(ref) {
				c.Printf("Stopped %s\n", name)
			}
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(brokerURL).Run(flag.Args()...)
}
