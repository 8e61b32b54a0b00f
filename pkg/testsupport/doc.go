// Package testsupport bundles fixtures, golden-file helpers and a recording
// surface shared by the package tests.
package testsupport
