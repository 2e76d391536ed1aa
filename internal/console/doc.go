// Package console hosts the client edge of the Resohub platform: the
// authentication proxy, durable client state, theme application, and the
// upstream realtime connection.
package console
