// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import "code.hybscloud.com/atomix"

// Serial is a monotonically increasing activity identifier.
// Each call to NewActivity assigns the next serial value.
type Serial = uint32

// counter is the global monotonic counter for activity serials.
var counter atomix.Uint32

// nextSerial returns the next monotonically increasing serial.
func nextSerial() Serial {
	return counter.Add(1)
}

// Serial returns the serial number assigned to this activity.
func (a *Activity) Serial() Serial {
	return a.serial
}
