// Package utils provides common utility functions for the feature-manifest application.
// It includes helper functions for scalar conversion used when turning database
// rows, YAML documents and query strings into setting values.
package utils
