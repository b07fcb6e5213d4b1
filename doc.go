// Package quotebook is the composition root of the quotebook application.
//
// A quotebook is a list of short texts, each tagged with a category, kept in
// a durable local store and reconciled periodically with a remote collection
// over HTTP. Local data always wins: reconciliation only ever adds remote
// records that are not already present (same text and same category).
//
// The pieces:
//
//   - pkg/core: the record model, the in-memory collection and the service
//     that owns it (add, random draw, category filter, import/export, merge).
//   - pkg/store and pkg/adapters/...: persistence of the named slots on
//     files, SQLite or memory.
//   - pkg/remote: the HTTP transport, mapping remote payloads through
//     gjson/sjson projections.
//   - pkg/engine: the event loop that serializes user actions and network
//     completions, and runs the timed sync cycle.
//
// Usage:
//
//	rt, err := quotebook.Open("./data",
//		quotebook.WithRemote("https://dummyjson.com/quotes"),
//		quotebook.WithRemoteSchema(remote.PresetDummyJSON),
//	)
//	if err != nil {
//		return err
//	}
//	defer rt.Close()
//
//	go rt.Engine.Run(ctx)
//	rt.Engine.Add(ctx, "Stay hungry, stay foolish.", "Inspiration")
package quotebook
