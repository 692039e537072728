package provider

const (
	// A valid Aptos private key in hex format
	testPrivateKey = "0xE4FD0E90D32CB98DC6AD64516A421E8C2731870217CDBA64203CEB158A866304"

	// The expected account address for above private key
	testAccountAddr = "0x9b7a7333d1abd0e9c2a27d00a8a7a131d30d3b09908739d52693fe513e205c38"

	// Seeds of the two harness accounts
	aliceKey = "0x1111111111111111111111111111111111111111111111111111111111111111"
	bobKey   = "0x2111111111111111111111111111111111111111111111111111111111111111"

	// Addresses of the harness accounts: sha3-256 of the Ed25519 public key and the 0x00 scheme byte
	aliceAddr = "0x147e4d3a5b10eaed2a93536e284c23096dfcea9ac61f0a8420e5d01fbd8f0ea8"
	bobAddr   = "0x16bed7f9fc33245ca93858bba61289d93a9b42368212705dcc87378f98a8711c"
)
