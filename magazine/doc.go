// Package magazine integrates the headless CMS that serves the editorial
// content. It contains a read-only REST client for posts, pages, taxonomies,
// and authors, plus a webhook receiver that maps content changes onto public
// page invalidations.
package magazine
