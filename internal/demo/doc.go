// Package demo is a small greeter application assembled by the container.
//
// A console logger, one greeter per configured language and the App that
// collects them are singletons. The web hierarchy adds a per-session visit
// counter and a per-request Visit, which the HTTP handler reports.
package demo
