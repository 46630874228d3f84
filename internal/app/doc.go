// Package app orchestrates the streaming use cases.
//
// Feed fetches quotes and news for one symbol through the bounded worker
// pool, collapsing concurrent fetches and attaching sentiment. Scheduler
// polls Feed for every active symbol on a shared tick and fans the results
// out through the subscription registry. Directory serves symbol search and
// peer lookups. Depends on domain interfaces, not concrete adapters.
package app
