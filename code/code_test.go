package code

import "testing"

func TestNames(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{OperationRaiseEvent.String(), "RaiseEvent"},
		{EventPropertiesChanged.String(), "PropertiesChanged"},
		{EventSetProperties.String(), "PropertiesChanged"},
		{ParameterData.String(), "CustomEventContent"},
		{ParameterEventCode.String(), "Code"},
		{PacketEvent.String(), "Event"},
		{InternalPing.String(), "Ping"},
		{OperationCode(1).String(), "1"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("String() = %q; want %q", tt.got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	if c, err := ParseOperationCode("raiseevent"); err != nil || c != OperationRaiseEvent {
		t.Errorf("ParseOperationCode(raiseevent) = %d, %v", c, err)
	}
	if c, err := ParseEventCode(" 42 "); err != nil || c != 42 {
		t.Errorf("ParseEventCode(42) = %d, %v", c, err)
	}
	if c, err := ParseParameterCode("Data"); err != nil || c != ParameterData {
		t.Errorf("ParseParameterCode(Data) = %d, %v", c, err)
	}
	if _, err := ParseOperationCode("256"); err == nil {
		t.Errorf("ParseOperationCode(256) succeeded")
	}
	if _, err := ParseEventCode("Nope"); err == nil {
		t.Errorf("ParseEventCode(Nope) succeeded")
	}
}
