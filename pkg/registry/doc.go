/*
Package registry tracks every processor filemill can run: built-ins
compiled into the binary and command plugins discovered on disk.

🎯 Purpose:
- Holds build-time registrations made by builtin packages in init()
- Discovers external command plugins in a directory
- Resolves processors by name and filters them by category

🔄 Flow:
1. Builtin packages call Register at init time
2. New instantiates every registered factory
3. Discover probes a plugin directory, isolating broken candidates
4. Drivers resolve by name or list by category

📝 Design Philosophy:
Discovery never fails because one candidate is broken: every load error
is logged and the scan moves on. Re-running Discover replaces the
previously discovered set wholesale, so deleting a plugin from the
directory really removes it. Built-ins always survive re-discovery; a
discovered plugin with a built-in's name shadows it until the next
Discover that no longer finds it.
*/
package registry
