// Package epub implements the book engine for EPUB publications.
//
// Parsing is delegated to github.com/taylorskalyo/goreader/epub for the
// package document and spine, with the archive read a second time
// through archive/zip for the NCX outline, the page list and the stored
// entry sizes. Section markup is reduced to plain text and image
// references with golang.org/x/net/html.
//
// The engine receives raw bytes; both underlying readers want a file on
// disk, so Open writes the content to a temporary file that lives as
// long as the Book.
package epub
