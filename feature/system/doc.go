// Package system stores process-wide named singleton values (serialized
// client config, license, current-user id) as key/value rows.
package system
