package scan

// snapshotScript walks the rendered DOM depth-first in document order and
// emits one raw descriptor per candidate node. Subtrees under display:none
// and children of visibility:hidden ancestors are excluded in-page; a node
// that throws during evaluation is skipped rather than failing the pass.
// Classification happens on the Go side so it stays testable without a page.
const snapshotScript = `() => {
	const vw = window.innerWidth, vh = window.innerHeight;

	const interactiveTags = ['a', 'button', 'input', 'select', 'textarea', 'summary', 'details'];
	const handlerAttrs = ['onclick', 'onmousedown', 'onmouseup'];

	function xpathOf(el) {
		const parts = [];
		let node = el;
		while (node && node.nodeType === Node.ELEMENT_NODE) {
			let idx = 0;
			let sib = node.previousSibling;
			while (sib) {
				if (sib.nodeType === Node.ELEMENT_NODE && sib.tagName === node.tagName) idx++;
				sib = sib.previousSibling;
			}
			parts.unshift(node.tagName.toLowerCase() + '[' + (idx + 1) + ']');
			node = node.parentNode;
		}
		return '/' + parts.join('/');
	}

	function accName(el) {
		return (el.getAttribute('aria-label') || el.getAttribute('title') || el.innerText || '').trim();
	}

	function elementText(el) {
		if (el.tagName.toLowerCase() === 'input') return el.value || el.placeholder || '';
		return el.innerText || el.textContent || '';
	}

	const out = [];

	function visit(el) {
		if (!el || el.nodeType !== Node.ELEMENT_NODE) return;

		let style;
		try {
			style = window.getComputedStyle(el);
		} catch (e) {
			return;
		}
		if (style.display === 'none') return;
		const hidden = style.visibility === 'hidden' || style.opacity === '0';

		try {
			const tag = el.tagName.toLowerCase();
			const hasHandler = !!(el.onclick || el.onmousedown || el.onmouseup ||
				handlerAttrs.some(a => el.getAttribute(a)));
			const candidate = interactiveTags.includes(tag) ||
				el.getAttribute('role') !== null ||
				hasHandler ||
				el.getAttribute('tabindex') !== null ||
				style.cursor === 'pointer';

			if (candidate) {
				const rect = el.getBoundingClientRect();
				const hasBox = !!(rect.width || rect.height || rect.top || rect.left);
				const attrs = [];
				for (const attr of el.attributes) {
					attrs.push({ name: attr.name, value: attr.value });
				}
				out.push({
					tag: tag,
					text: elementText(el).trim().substring(0, 100),
					attrs: attrs,
					xpath: xpathOf(el),
					cursor: style.cursor,
					handler: hasHandler,
					acc: accName(el).substring(0, 100),
					hidden: hidden,
					box: hasBox ? {
						x: rect.x, y: rect.y, width: rect.width, height: rect.height,
						top: rect.top, right: rect.right, bottom: rect.bottom, left: rect.left
					} : null,
					inViewport: hasBox && rect.bottom > 0 && rect.right > 0 && rect.top < vh && rect.left < vw
				});
			}
		} catch (e) {
			// unevaluable node: skip it, keep the pass going
		}

		if (hidden) return;
		for (const child of el.children) visit(child);
	}

	visit(document.body);
	return out;
}`
