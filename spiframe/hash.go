package spiframe

// perm is the fixed 256-entry Pearson permutation table used as the SPI
// frame integrity check. It is part of the wire contract: every byte in
// this table is a constant and must never be regenerated or reordered,
// since a divergent table would desync the checksum with every slave on
// the bus.
var perm = [256]byte{
	0x3b, 0xe1, 0x1a, 0xdc, 0xb3, 0x00, 0xa8, 0x9f, 0x34, 0x56, 0x7c, 0x88, 0xce, 0x92, 0x08, 0xd5,
	0x2f, 0x8c, 0xf2, 0x46, 0x0b, 0x1f, 0x9a, 0xe3, 0xa5, 0xb8, 0x78, 0x32, 0xee, 0xe5, 0xf0, 0x77,
	0xbf, 0x20, 0xa7, 0x5c, 0x09, 0x1b, 0x1e, 0x10, 0x3c, 0xb0, 0x9c, 0xb1, 0xd7, 0x84, 0xf5, 0x70,
	0xeb, 0xc2, 0x24, 0xb2, 0x9d, 0x73, 0x40, 0xb6, 0x45, 0xdf, 0xf6, 0x65, 0x4f, 0x50, 0xd1, 0xe0,
	0x41, 0x87, 0x79, 0x68, 0x13, 0x83, 0x19, 0x22, 0xa4, 0xe4, 0xc6, 0x3d, 0x03, 0x18, 0xf1, 0x5d,
	0x6b, 0xe9, 0x1c, 0xab, 0x42, 0xdd, 0x11, 0x95, 0x7f, 0xec, 0xff, 0x17, 0xd6, 0xd4, 0x14, 0x94,
	0xf8, 0x37, 0x99, 0xa0, 0xad, 0x8b, 0x33, 0xf9, 0x6f, 0xcf, 0x7e, 0xd9, 0x7a, 0xa3, 0xf7, 0x15,
	0x8a, 0xe8, 0x69, 0xb9, 0x8f, 0x76, 0x1d, 0x5e, 0xb4, 0x54, 0x07, 0x6d, 0x74, 0x2e, 0x2d, 0x82,
	0x66, 0x26, 0xd2, 0x3f, 0x02, 0x51, 0x28, 0xbb, 0x5b, 0xd3, 0x52, 0x80, 0x5a, 0xea, 0xef, 0x4d,
	0x6c, 0x2c, 0xa9, 0xba, 0xb7, 0x53, 0xa1, 0x36, 0x6a, 0x85, 0xfd, 0xc4, 0xc7, 0x89, 0x35, 0xc9,
	0x6e, 0x97, 0x63, 0xa6, 0x47, 0x44, 0x72, 0x71, 0x93, 0x12, 0xbe, 0x01, 0xdb, 0xa2, 0x48, 0x61,
	0xfe, 0x58, 0xc8, 0xaf, 0xe2, 0xed, 0x5f, 0x81, 0x0d, 0xda, 0x2a, 0x86, 0x04, 0x96, 0xfc, 0xaa,
	0xbd, 0x06, 0xcd, 0xbc, 0x4a, 0xc5, 0x4e, 0x0a, 0x9b, 0xf3, 0xc0, 0x23, 0x27, 0xfa, 0x59, 0x29,
	0xd8, 0x38, 0x57, 0x64, 0xc1, 0x2b, 0x3e, 0x67, 0x8e, 0x25, 0x8d, 0xac, 0x90, 0x49, 0xb5, 0x31,
	0x4b, 0xf4, 0x60, 0x3a, 0xde, 0x7d, 0xd0, 0xfb, 0x91, 0x05, 0x30, 0x39, 0x0e, 0x98, 0xc3, 0x9e,
	0xcc, 0xe6, 0x21, 0x0c, 0x16, 0xcb, 0x55, 0x75, 0xae, 0xe7, 0x43, 0x0f, 0x7b, 0x62, 0x4c, 0xca,
}

// hash folds b through the Pearson permutation table, one byte at a time.
func hash(b []byte) byte {
	var acc byte
	for _, v := range b {
		acc = perm[acc^v]
	}
	return acc
}
