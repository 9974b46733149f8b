// Package assets implements learnhub.AssetHost.
//
// [Cloudinary] wraps the cloudinary-go upload API.
// [Memory] keeps uploads in process for tests and local runs.
package assets
