package commands

import "fmt"

// HandleLockCommand processes -lock enable|disable|clear. Enabling sets the
// PIN on first use; every other action needs the current PIN.
func HandleLockCommand(env Env, action, pin string) error {
	m := env.Lock
	switch action {
	case "enable":
		if !m.HasPIN() {
			if err := m.SetPIN(pin); err != nil {
				return err
			}
		} else if err := m.Verify(pin); err != nil {
			return err
		}
		if err := m.SetEnabled(true); err != nil {
			return err
		}
		env.printf("PIN lock enabled\n")
	case "disable":
		if err := m.Verify(pin); err != nil {
			return err
		}
		if err := m.SetEnabled(false); err != nil {
			return err
		}
		env.printf("PIN lock disabled\n")
	case "clear":
		if err := m.Verify(pin); err != nil {
			return err
		}
		if err := m.Clear(); err != nil {
			return err
		}
		env.printf("PIN removed\n")
	default:
		return fmt.Errorf("unknown lock action: %s (use enable, disable or clear)", action)
	}
	return nil
}
