// Package web maps HTTP sessions and requests onto sub-containers.
//
// Sessions are identified by a cookie holding a random UUID. Each session
// owns a container one scope below the root, and every request gets a fresh
// container below its session's. Handlers find the request container with
// Container.
package web
