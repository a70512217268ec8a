// Package ardent is the core of a retained-mode vector UI toolkit.
//
// Ardent keeps a scene graph of vector shapes, lays it out with a flexbox
// subset, routes pointer input through hit-testing and event bubbling, and
// hands renderers an immutable [Frame] of paths, transforms and styles.
// Nothing in this package touches a GPU; painting lives in subpackages.
//
// # Quick start
//
//	scene := ardent.NewScene()
//	row, _ := scene.Insert(scene.Root(), ardent.NewGroup("row").
//		WithLayout(ardent.LayoutSpec{Direction: ardent.Row}))
//	ok, _ := scene.Insert(row, ardent.NewRect("ok", 0, 32).
//		WithLayout(ardent.Flex()).
//		WithFill(ardent.RGB(0.2, 0.6, 1)))
//	scene.SetHandler(ok, ardent.EventClick, func(ev ardent.Event) bool {
//		log.Println("clicked", ev.Target)
//		return true
//	})
//
//	scene.Layout(ardent.Size{Width: 640, Height: 480})
//	frame := scene.Snapshot()
//
// The ebitenrun subpackage opens a window and drives the scene each tick:
//
//	ebitenrun.Run(scene, ebitenrun.RunConfig{Title: "Demo", Width: 640, Height: 480})
//
// # Scene graph
//
// Nodes live in an arena owned by the [Scene] and are addressed by [NodeID].
// IDs are generational: once a node is removed, its ID reports [ErrNotFound]
// even after the slot is reused. Every mutation goes through a Scene method
// that marks the node and its ancestors dirty.
//
// # Layout
//
// Nodes with a [LayoutSpec] take part in flex layout along a single axis.
// Nodes without one keep their transform and are sized by their shape.
// [Scene.Layout] only revisits dirty subtrees.
//
// # Input
//
// [Scene.Pointer] turns raw pointer samples into down, up, click, drag and
// hover events. Events bubble from the deepest hit node to the root until a
// [Handler] returns true. Enter and leave fire once per node and do not
// bubble.
//
// # Subpackages
//
//   - raster paints frames with the gg software renderer and writes PNG screenshots.
//   - textrun shapes strings into outline paths.
//   - bindings loads event handler bindings from TOML files.
//   - ebitenrun hosts a scene in an [Ebitengine] window.
//   - ecs bridges interaction events into a [Donburi] world.
//
// Tweens are built on [gween].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package ardent
