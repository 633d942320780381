//
//   Copyright 2012 Dmitry Kolesnikov, All Rights Reserved
//
//   Licensed under the Apache License, Version 2.0 (the "License");
//   you may not use this file except in compliance with the License.
//   You may obtain a copy of the License at
//
//       http://www.apache.org/licenses/LICENSE-2.0
//
//   Unless required by applicable law or agreed to in writing, software
//   distributed under the License is distributed on an "AS IS" BASIS,
//   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//   See the License for the specific language governing permissions and
//   limitations under the License.
//

package metriclock

import (
	"encoding/binary"
	"fmt"
)

// ASCII ordered, so keys sort the same way as ticks
var alphabet = []byte{
	'.', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'A', 'B', 'C', 'D', 'E',
	'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M', 'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U',
	'V', 'W', 'X', 'Y', 'Z', '_', 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j',
	'k', 'l', 'm', 'n', 'o', 'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z',
}

// 64 bits of tick take 11 sextets, the first one carries 4 bits only
const keyLen = 11

/*

Key encodes tick to lexicographically sortable string of fixed length.
*/
func (t Tick) Key() string {
	b := make([]byte, keyLen)
	v := uint64(t)
	for i := keyLen - 1; i >= 0; i-- {
		b[i] = alphabet[v&0x3f]
		v >>= 6
	}
	return string(b)
}

/*

TickFromKey decodes tick from lexicographically sortable string.
The operation is inverse to Key.
*/
func TickFromKey(key string) (Tick, error) {
	if len(key) != keyLen {
		return 0, fmt.Errorf("%w: key %q", ErrMalformed, key)
	}

	var v uint64
	for i := 0; i < keyLen; i++ {
		x, ok := decode64(key[i])
		if !ok || (i == 0 && x > 0x0f) {
			return 0, fmt.Errorf("%w: key %q", ErrMalformed, key)
		}
		v = v<<6 | x
	}
	return Tick(v), nil
}

func decode64(x byte) (uint64, bool) {
	switch {
	case x == '.':
		return 0, true
	case x >= '0' && x <= '9':
		return uint64(x-'0') + 1, true
	case x >= 'A' && x <= 'Z':
		return uint64(x-'A') + 11, true
	case x == '_':
		return 37, true
	case x >= 'a' && x <= 'z':
		return uint64(x-'a') + 38, true
	}
	return 0, false
}

/*

Bytes encodes tick to 8 bytes, big-endian
*/
func (t Tick) Bytes() []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(t))
	return b
}

/*

TickFromBytes decodes tick from bytes. The operation is inverse to Bytes.
*/
func TickFromBytes(b []byte) (Tick, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("%w: tick %v", ErrMalformed, b)
	}
	return Tick(binary.BigEndian.Uint64(b)), nil
}
