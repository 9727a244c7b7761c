// Package pkgroutine runs the application's long-lived goroutines (the
// console session, the HTTP listener) under one Manager that bounds how many
// run at once, collects their errors and keeps a panic from killing the
// process silently.
package pkgroutine
