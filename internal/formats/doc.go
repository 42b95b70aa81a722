// Package formats holds the media metadata model returned by the extraction
// engine and the selector that reduces its encoding list to the options shown
// to a user.
package formats
