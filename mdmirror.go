// Package mdmirror mirrors a website into a local tree of Markdown files.
// It crawls a site breadth-first within a host and depth bound, honours
// robots.txt, extracts the main content of each page, converts it to
// Markdown and downloads referenced images into a shared assets directory.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, robotstxt/).
package mdmirror
