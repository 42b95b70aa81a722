/*
Package streaming delivers finished downloads to HTTP clients.

A TimeoutWriter wraps an http.ResponseWriter so that a stalled or vanished
client cannot pin a handler goroutine (and its scratch file) forever. Writes
are split into chunks, each bounded by Config.WriteTimeout, and the stream is
canceled when no data has flowed for Config.IdleTimeout.

ServeAttachment builds on it to send a file as a download:

	err := streaming.ServeAttachment(ctx, w, streaming.Attachment{
		Path:        res.Path,
		Name:        res.Filename,
		ContentType: res.ContentType,
	}, streaming.DefaultConfig())

Errors returned before any header was written match ErrDeliveryFailure and the
caller may still answer with an error response. Once the body has started, the
error is an *InterruptedError; the response is committed and can only be
abandoned.
*/
package streaming
