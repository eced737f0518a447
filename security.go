// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package upk

import (
	"crypto"
	"crypto/sha1"
	"crypto/x509"
	"encoding/hex"
	"os"
	"path/filepath"

	"go.mozilla.org/pkcs7"
)

// Console cooked builds commonly ship a detached PKCS#7 signature beside
// the package, covering the whole file body. PC cooked builds usually do
// not bother. sidecarSuffix is appended to the package path to look for
// one.
const sidecarSuffix = ".sig"

// Signature is a verified (or attempted) detached signature for a
// package.
type Signature struct {
	// Present is false when no sidecar file was found; every other field
	// is then zero.
	Present bool

	// Verified is true once the signer chain validated against the
	// platform's trust roots and the digest matched the package body.
	Verified bool

	Issuer       string
	Subject      string
	SerialNumber string
	Digest       string
}

// SignaturePath returns the conventional sidecar path for pkg's package
// file: packagePath with sidecarSuffix appended, the same on every
// platform. Console cooked builds sign, PC cooked builds usually don't, so
// a missing sidecar on PlatformPC is not itself an anomaly.
func (pkg *Package) SignaturePath(packagePath string) string {
	return packagePath + sidecarSuffix
}

// VerifySignature loads the detached PKCS#7 signature sidecar next to
// packagePath (spec.md's Security component, adapted from an
// Authenticode-style certificate-table parser to a whole-file detached
// signature) and checks it against a SHA-1 digest of the package's raw
// bytes. Roots come from the process's system trust store; a missing
// sidecar is reported as Signature{Present: false}, not an error.
func (pkg *Package) VerifySignature(packagePath string, raw []byte) (Signature, error) {
	sigPath := pkg.SignaturePath(packagePath)
	sigBytes, err := os.ReadFile(sigPath)
	if os.IsNotExist(err) {
		return Signature{Present: false}, nil
	}
	if err != nil {
		return Signature{}, newError(FormatError, -1, "reading signature sidecar %s: %v", filepath.Base(sigPath), err)
	}

	p7, err := pkcs7.Parse(sigBytes)
	if err != nil {
		return Signature{}, newError(FormatError, -1, "parsing signature sidecar %s: %v", filepath.Base(sigPath), err)
	}

	sig := Signature{Present: true}
	if len(p7.Signers) > 0 {
		serial := p7.Signers[0].IssuerAndSerialNumber.SerialNumber
		for _, cert := range p7.Certificates {
			if cert.SerialNumber.Cmp(serial) != 0 {
				continue
			}
			sig.Issuer = cert.Issuer.CommonName
			sig.Subject = cert.Subject.CommonName
			sig.SerialNumber = hex.EncodeToString(cert.SerialNumber.Bytes())
			break
		}
	}

	digest := sha1.Sum(raw)
	sig.Digest = hex.EncodeToString(digest[:])

	p7.Content = raw
	roots, err := x509.SystemCertPool()
	if err != nil {
		return sig, nil
	}
	if err := p7.VerifyWithChain(roots); err != nil {
		return sig, nil
	}
	sig.Verified = true
	return sig, nil
}

// pkcs7HashAlgorithm documents the digest algorithm this verifier
// assumes (SHA-1, matching the console signing tools this sidecar
// convention was observed from).
var pkcs7HashAlgorithm = crypto.SHA1
