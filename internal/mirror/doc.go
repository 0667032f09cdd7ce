// Package mirror writes fetched pages to a directory tree that follows the
// URL path of each page.
//
// The layout is:
//
//	<root>/index.html            the seed page
//	<root>/about/index.html      http://host/about
//	<root>/blog/2024/index.html  http://host/blog/2024/
//
// The query string and fragment are ignored, so http://host/list?p=1 and
// http://host/list#top are both written to <root>/list/index.html.
package mirror
