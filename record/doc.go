// Copyright 2018 IBM Corporation
// Licensed under the Apache License, Version 2.0. See LICENSE file.

/*
Package record contains the highlevel types used for tracking hashed files and
the checksum lists that describe them. A File pairs a path with its SHA-1
digest; a Checksum is one line of a sha1sum-style list, which is the form
digests are usually exchanged in.
*/
package record
