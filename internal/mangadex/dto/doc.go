// Package dto holds the MangaDex API wire types and their conversions into
// model types.
package dto
