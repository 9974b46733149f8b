// Package catalog implements the course marketplace around the auth engine:
// course authoring and reads, orders, admin notifications, homepage layout
// sections and twelve-window analytics.
//
// Persistence is behind the repository interfaces in this package; see
// store/memory, store/mongo and store/postgres. Course reads go through a
// Redis [CourseCache] with a seven day TTL, evicted on edit and purchase.
package catalog
