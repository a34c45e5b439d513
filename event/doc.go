// Package event provides the typed publish/subscribe bus used by tools, chat
// sessions and agents to report lifecycle boundaries.
//
// A Bus is an explicit value passed through constructor options; there is no
// package level registry. Delivery is synchronous and ordered:
//
//	bus := event.NewBus()
//	unsubscribe := bus.Subscribe(event.AgentStep, func(ev event.Event) {
//		fmt.Println(ev.Payload["tool"])
//	})
//	defer unsubscribe()
//
// LogHandler and ConsolePrinter are ready-made sinks.
package event
