// Package cli provides the interactive s3drop command-line client.
//
// It wires configuration, the HTTP upload transport, the upload
// orchestrator and a REPL. A background watcher probes the server's health
// endpoint and the prompt shows whether the server is online.
//
// Commands:
//   - add <path>...  select local files
//   - remove <n>     drop the n-th pending file
//   - list           show pending files with size and type
//   - upload         submit every pending file as one batch
//   - results        show the outcome of the last batch
//   - help, exit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
