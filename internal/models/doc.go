// Package models defines the persisted entities of assetd.
//
// [AccessRecord] captures one completed request: what was asked for, how it was answered and how long it took.
// Records are only written when the access log store is enabled.
package models
